package scraper

import "strings"

// Site identifies a recognized e-commerce host. The zero value is the
// generic fallback.
type Site int

const (
	SiteGeneric Site = iota
	SiteAmazon
	SiteCdiscount
	SiteFnac
	SiteDarty
	SiteBoulanger
	SiteLeclerc
)

// String returns the site's profile name
func (s Site) String() string {
	switch s {
	case SiteAmazon:
		return "amazon"
	case SiteCdiscount:
		return "cdiscount"
	case SiteFnac:
		return "fnac"
	case SiteDarty:
		return "darty"
	case SiteBoulanger:
		return "boulanger"
	case SiteLeclerc:
		return "leclerc"
	default:
		return "generic"
	}
}

// SiteProfile holds the ordered selector candidates for each extracted
// field, most specific first.
type SiteProfile struct {
	Price        []string
	Title        []string
	Availability []string
	Image        []string
}

// siteChecks is the fixed, ordered detection list; first match wins.
var siteChecks = []struct {
	fragment string
	site     Site
}{
	{"amazon", SiteAmazon},
	{"cdiscount", SiteCdiscount},
	{"fnac", SiteFnac},
	{"darty", SiteDarty},
	{"boulanger", SiteBoulanger},
	{"leclerc", SiteLeclerc},
}

// siteProfiles is static, process-wide, read-only configuration.
var siteProfiles = map[Site]SiteProfile{
	SiteAmazon: {
		Price:        []string{".a-price .a-offscreen", ".a-price-whole", "#priceblock_ourprice", "#priceblock_dealprice", ".a-section .a-color-price"},
		Title:        []string{"#productTitle", "#title", ".product-title-word-break"},
		Availability: []string{"#availability", "#deliveryMessageMirId", ".a-section.a-spacing-base"},
		Image:        []string{"#landingImage", "#imgBlkFront", "#main-image"},
	},
	SiteCdiscount: {
		Price:        []string{".fpPrice", ".price", ".jsMainPrice"},
		Title:        []string{"h1", ".fpDesColumn h1", ".prdtBILTit"},
		Availability: []string{".fpStockLevel", ".stockLevel", ".fpStockLevelBar"},
		Image:        []string{".prdtVisual img", ".jsPrdtBlocImg img"},
	},
	SiteFnac: {
		Price:        []string{".userPrice", ".f-priceBox__price", ".Article-price"},
		Title:        []string{".f-productHeader-Title", ".Article-infoContent h1"},
		Availability: []string{".f-buyBox-availabilityStatus", ".Article-availability"},
		Image:        []string{".f-productVisuals-mainVisual img", ".Article-imageContainer img"},
	},
	SiteDarty: {
		Price:        []string{".product_price", ".price", ".darty_prix_produit"},
		Title:        []string{".product_name", "h1.product_title"},
		Availability: []string{".availability-msg", ".product_stock"},
		Image:        []string{".product_image img", ".product_img img"},
	},
	SiteBoulanger: {
		Price:        []string{".price__amount", ".main-price", ".price"},
		Title:        []string{".product-title", "h1.title"},
		Availability: []string{".product-availability", ".stock-notification"},
		Image:        []string{".product-gallery img", ".carousel-item img"},
	},
	SiteLeclerc: {
		Price:        []string{".product-price", ".price", ".current-price"},
		Title:        []string{".product-title", ".product-name", "h1"},
		Availability: []string{".availability", ".stock-status"},
		Image:        []string{".product-image img", ".main-image img"},
	},
	SiteGeneric: {
		Price:        []string{".price", ".product-price", "[itemprop='price']", ".current-price", ".sales-price"},
		Title:        []string{"h1", ".product-title", "[itemprop='name']", ".product-name"},
		Availability: []string{".availability", ".stock-status", "[itemprop='availability']"},
		Image:        []string{".product-image img", "[itemprop='image']", ".main-image img"},
	},
}

// DetectSite maps a URL to a recognized site by ordered substring
// matching; unrecognized hosts fall back to the generic site.
func DetectSite(rawURL string) Site {
	for _, check := range siteChecks {
		if strings.Contains(rawURL, check.fragment) {
			return check.site
		}
	}
	return SiteGeneric
}

// Profile returns the site's selector profile; unknown sites get the
// generic profile.
func (s Site) Profile() SiteProfile {
	if profile, ok := siteProfiles[s]; ok {
		return profile
	}
	return siteProfiles[SiteGeneric]
}
