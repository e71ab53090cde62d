package models

// Branding holds the configurable application identity.
type Branding struct {
	AppName        string `json:"appName"`
	AppLogoDataURL string `json:"appLogoDataUrl,omitempty"`
}

// Support holds the federation's support contact channels.
type Support struct {
	SupportWhatsApp string `json:"supportWhatsApp,omitempty"`
	SupportEmail    string `json:"supportEmail,omitempty"`
}

// Settings is the free-form configuration block of the document. It is not
// subject to the structural invariants that govern the record collections.
type Settings struct {
	AppBranding    Branding          `json:"appBranding"`
	AppSupport     Support           `json:"appSupport"`
	RankingsCovers map[string]string `json:"rankingsCovers,omitempty"`
}
