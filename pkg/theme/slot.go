package theme

import (
	"github.com/a-h/templ"
)

// Component renders a piece of the layout, the page is available through PageFromContext
type Component = templ.Component

// SlotFunc resolves the component of a named slot
type SlotFunc func(name string) Component

// Slots of the default layout
const (
	SlotLayoutTop           = "layout-top"
	SlotLayoutBottom        = "layout-bottom"
	SlotNavBarTitleBefore   = "nav-bar-title-before"
	SlotNavBarTitleAfter    = "nav-bar-title-after"
	SlotNavBarContentBefore = "nav-bar-content-before"
	SlotNavBarContentAfter  = "nav-bar-content-after"
	SlotSidebarNavBefore    = "sidebar-nav-before"
	SlotSidebarNavAfter     = "sidebar-nav-after"
	SlotDocBefore           = "doc-before"
	SlotDocAfter            = "doc-after"
	SlotDocFooterBefore     = "doc-footer-before"
	SlotAsideTop            = "aside-top"
	SlotAsideBottom         = "aside-bottom"
	SlotAsideOutlineBefore  = "aside-outline-before"
	SlotAsideOutlineAfter   = "aside-outline-after"
	SlotHomeHeroBefore      = "home-hero-before"
	SlotHomeHeroInfo        = "home-hero-info"
	SlotHomeHeroImage       = "home-hero-image"
	SlotHomeHeroAfter       = "home-hero-after"
	SlotHomeFeaturesBefore  = "home-features-before"
	SlotHomeFeaturesAfter   = "home-features-after"
	SlotNotFound            = "not-found"
)

// Slots names of all slots the default layout renders
func Slots() []string {
	return []string{
		SlotLayoutTop,
		SlotLayoutBottom,
		SlotNavBarTitleBefore,
		SlotNavBarTitleAfter,
		SlotNavBarContentBefore,
		SlotNavBarContentAfter,
		SlotSidebarNavBefore,
		SlotSidebarNavAfter,
		SlotDocBefore,
		SlotDocAfter,
		SlotDocFooterBefore,
		SlotAsideTop,
		SlotAsideBottom,
		SlotAsideOutlineBefore,
		SlotAsideOutlineAfter,
		SlotHomeHeroBefore,
		SlotHomeHeroInfo,
		SlotHomeHeroImage,
		SlotHomeHeroAfter,
		SlotHomeFeaturesBefore,
		SlotHomeFeaturesAfter,
		SlotNotFound,
	}
}
