package gui

import (
	"fyne.io/fyne/v2"
)

var iconData = []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256">
<rect x="8" y="8" width="240" height="240" rx="48" fill="#2b6cb0"/>
<rect x="40" y="56" width="108" height="84" rx="14" fill="#ffffff"/>
<rect x="108" y="116" width="108" height="84" rx="14" fill="#90cdf4"/>
<text x="94" y="112" font-family="sans-serif" font-size="52" font-weight="bold" text-anchor="middle" fill="#2b6cb0">A</text>
<text x="162" y="174" font-family="sans-serif" font-size="52" font-weight="bold" text-anchor="middle" fill="#1a365d">文</text>
</svg>`)

// GetAppIcon returns the application icon as a Fyne resource
func GetAppIcon() fyne.Resource {
	return &fyne.StaticResource{
		StaticName:    "gptranslate.svg",
		StaticContent: iconData,
	}
}
