package browser

import "time"

// Site holds everything tied to the target page's markup. Changes on the
// target site are absorbed here.
type Site struct {
	URL string
	// PromptSelector is a CSS selector for the prompt input.
	PromptSelector string
	// SubmitXPath and RefreshXPath match their controls by visible text.
	SubmitXPath  string
	RefreshXPath string

	NavigationTimeout time.Duration
	ElementTimeout    time.Duration
	ActionTimeout     time.Duration
}

func MagicStudio() Site {
	return Site{
		URL:               "https://magicstudio.com/ai-art-generator/",
		PromptSelector:    "textarea",
		SubmitXPath:       `//button[contains(normalize-space(.), "Generate")]`,
		RefreshXPath:      `//button[contains(normalize-space(.), "Refresh")]`,
		NavigationTimeout: 120 * time.Second,
		ElementTimeout:    60 * time.Second,
		ActionTimeout:     30 * time.Second,
	}
}
