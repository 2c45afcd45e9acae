package site_test

import (
	"testing"

	"github.com/netonframework/docsite/pkg/site"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlConfig = `
title: Neton Framework
lang: zh-CN
base: /
themeConfig:
  nav:
    - text: 用户指南
      link: /guide/
  sidebar:
    /guide/:
      - text: 入门
        items:
          - text: 简介
            link: /guide/
  outline:
    level: deep
    label: 目录
`

const jsonConfig = `{
  "title": "Neton Framework",
  "themeConfig": {
    "nav": [{"text": "用户指南", "link": "/guide/"}],
    "sidebar": {"/guide/": [{"text": "入门", "items": [{"text": "简介", "link": "/guide/"}]}]},
    "outline": {"level": 3}
  }
}`

const tomlConfig = `
title = "Neton Framework"

[themeConfig.outline]
level = [2, 4]

[[themeConfig.nav]]
text = "用户指南"
link = "/guide/"

[[themeConfig.sidebar."/guide/"]]
text = "入门"

[[themeConfig.sidebar."/guide/".items]]
text = "简介"
link = "/guide/"
`

func TestDecode(t *testing.T) {
	tests := []struct {
		format  site.Format
		data    string
		outline [2]int
	}{
		{site.FormatYAML, yamlConfig, [2]int{2, 6}},
		{site.FormatJSON, jsonConfig, [2]int{3, 3}},
		{site.FormatTOML, tomlConfig, [2]int{2, 4}},
	}
	for _, test := range tests {
		t.Run(string(test.format), func(t *testing.T) {
			cfg, err := site.Decode([]byte(test.data), test.format)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())
			assert.Equal(t, "Neton Framework", cfg.Title)

			_, sections, ok := cfg.ThemeConfig.Sidebar.Lookup("/guide/")
			require.True(t, ok)
			assert.Equal(t, "/guide/", sections[0].Items[0].Link)

			lo, hi := cfg.ThemeConfig.Outline.Level.Range()
			assert.Equal(t, test.outline, [2]int{lo, hi})
		})
	}
}

func TestDecodeYAMLDuplicatePrefix(t *testing.T) {
	_, err := site.Decode([]byte(`
themeConfig:
  sidebar:
    /guide/: []
    /guide/: []
`), site.FormatYAML)
	require.Error(t, err)
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := site.Decode([]byte("{}"), "xml")
	assert.ErrorIs(t, err, site.ErrUnknownFormat)
}

func TestFormatFromName(t *testing.T) {
	for name, want := range map[string]site.Format{
		"config.json":               site.FormatJSON,
		"docs/config.yml":           site.FormatYAML,
		"config.YAML":               site.FormatYAML,
		"config.toml":               site.FormatTOML,
		"https://x/site.json?rev=1": site.FormatJSON,
	} {
		got, err := site.FormatFromName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := site.FormatFromName("config.ts")
	assert.ErrorIs(t, err, site.ErrUnknownFormat)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/site/config.yaml", []byte(yamlConfig), 0o644))

	cfg, err := site.Load(fs, "/site/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "zh-CN", cfg.Lang)

	_, err = site.Load(fs, "/site/missing.yaml")
	assert.Error(t, err)
}

func TestEncodeDefault(t *testing.T) {
	data, err := site.Encode(site.Default(), site.FormatYAML)
	require.NoError(t, err)
	cfg, err := site.Decode(data, site.FormatYAML)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.ThemeConfig.Sidebar["/spec/"], 8)
}

func TestDecodeTOMLOutlineKeyword(t *testing.T) {
	cfg, err := site.Decode([]byte("[themeConfig.outline]\nlevel = \"deep\"\n"), site.FormatTOML)
	require.NoError(t, err)
	lo, hi := cfg.ThemeConfig.Outline.Level.Range()
	assert.Equal(t, [2]int{2, 6}, [2]int{lo, hi})

	cfg, err = site.Decode([]byte("[themeConfig.outline]\nlevel = 3\n"), site.FormatTOML)
	require.NoError(t, err)
	lo, hi = cfg.ThemeConfig.Outline.Level.Range()
	assert.Equal(t, [2]int{3, 3}, [2]int{lo, hi})
}

func TestDecodeLeafWithEmptyItems(t *testing.T) {
	cfg, err := site.Decode([]byte(`{"themeConfig":{"nav":[{"text":"a","link":"/a","items":[]}]}}`), site.FormatJSON)
	require.NoError(t, err)
	problems := site.ValidationErrors(cfg.Validate())
	require.Len(t, problems, 1)
	assert.Equal(t, "nav[0]", problems[0].Path)
}
