package site

func leaf(text, link string) NavEntry {
	return NavEntry{Text: text, Link: link}
}

// Default returns the configuration of the Neton Framework documentation
func Default() *SiteConfig {
	return &SiteConfig{
		Title:       "Neton Framework",
		Description: "Neton 框架设计规范与用户指南",
		Lang:        "zh-CN",
		Base:        "/",
		LastUpdated: true,
		ThemeConfig: ThemeConfig{
			Nav: []NavEntry{
				leaf("首页", "/"),
				leaf("用户指南", "/guide/"),
				leaf("规范文档", "/spec/"),
				leaf("API 参考", "/api/"),
				{
					Text: "更多",
					Items: []NavEntry{
						leaf("路线图", "/spec/roadmap"),
						leaf("项目状态", "/spec/project-status-report"),
					},
				},
			},
			Sidebar: Sidebar{
				"/guide/": {
					{Text: "入门", Items: []NavEntry{
						leaf("简介", "/guide/"),
						leaf("快速开始", "/guide/quick-start"),
						leaf("项目结构", "/guide/project-structure"),
					}},
					{Text: "核心功能", Items: []NavEntry{
						leaf("路由与控制器", "/guide/routing"),
						leaf("参数绑定", "/guide/parameter-binding"),
						leaf("配置管理", "/guide/configuration"),
						leaf("日志系统", "/guide/logging"),
					}},
					{Text: "安全与认证", Items: []NavEntry{
						leaf("安全指南", "/guide/security"),
					}},
					{Text: "数据与缓存", Items: []NavEntry{
						leaf("数据库操作", "/guide/database"),
						leaf("缓存", "/guide/cache"),
						leaf("Redis 与分布式锁", "/guide/redis"),
					}},
					{Text: "进阶", Items: []NavEntry{
						leaf("中间件机制", "/guide/middleware"),
						leaf("部署与跨平台", "/guide/deployment"),
					}},
				},
				"/spec/": {
					{Text: "框架规范", Items: []NavEntry{
						leaf("规范概览", "/spec/"),
						leaf("路线图", "/spec/roadmap"),
						leaf("项目状态报告", "/spec/project-status-report"),
					}},
					{Text: "Core", Items: []NavEntry{
						leaf("Core 规范 v1", "/spec/core"),
						leaf("Core 架构", "/spec/core-architecture"),
						leaf("Core SPI 最佳实践", "/spec/core-spi-best-practices"),
						leaf("Core v2 重构设计", "/spec/core-v2-refactor"),
						leaf("Config SPI 规范", "/spec/config-spi"),
					}},
					{Text: "HTTP", Items: []NavEntry{
						leaf("HTTP 规范 v1", "/spec/http"),
						leaf("HTTP 适配器总结", "/spec/ktor-adapter-summary"),
					}},
					{Text: "路由与参数", Items: []NavEntry{
						leaf("路由规范 v1", "/spec/routing"),
						leaf("参数绑定规范 v1", "/spec/parameter-binding"),
					}},
					{Text: "安全", Items: []NavEntry{
						leaf("安全规范 v1", "/spec/security"),
						leaf("安全 v1.1 API Freeze", "/spec/security-v1.1-freeze"),
						leaf("JWT 认证器规范", "/spec/jwt-authenticator"),
						leaf("AuthenticationPrincipal 设计", "/spec/authentication-principal-design"),
					}},
					{Text: "日志", Items: []NavEntry{
						leaf("日志规范 v1", "/spec/logging"),
					}},
					{Text: "数据库", Items: []NavEntry{
						leaf("Database API Freeze v2", "/spec/database-api"),
						leaf("Query DSL v2", "/spec/database-query-dsl"),
						leaf("sqlx 适配设计", "/spec/database-sqlx-design"),
						leaf("SqlxStore v2 API", "/spec/database-sqlxstore-v2"),
					}},
					{Text: "缓存与 Redis", Items: []NavEntry{
						leaf("缓存规范 v1", "/spec/cache"),
						leaf("缓存注解规范 v1", "/spec/cache-annotation"),
						leaf("Redis 设计", "/spec/redis-design"),
						leaf("Redis 分布式锁规范", "/spec/redis-lock"),
					}},
				},
			},
			SocialLinks: []SocialLink{
				{Icon: "github", Link: "https://github.com/netonframework/neton"},
			},
			Search: SearchConfig{Provider: SearchProviderLocal},
			Footer: FooterConfig{
				Message:   "Neton Framework Documentation",
				Copyright: "Copyright 2025-present",
			},
			Outline: OutlineConfig{
				Level: OutlineLevel{2, 3},
				Label: "目录",
			},
			DocFooter: DocFooterConfig{
				Prev: "上一篇",
				Next: "下一篇",
			},
			LastUpdated:         LastUpdatedConfig{Text: "最后更新"},
			ReturnToTopLabel:    "返回顶部",
			SidebarMenuLabel:    "菜单",
			DarkModeSwitchLabel: "切换主题",
		},
		Markdown: MarkdownConfig{LineNumbers: true},
	}
}
