package gui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/gptranslate/internal/config"
	"codeberg.org/snonux/gptranslate/internal/hotkey"
	"codeberg.org/snonux/gptranslate/internal/translation"
)

const validateTimeout = 15 * time.Second

var providerLabels = []struct {
	kind  config.ProviderKind
	label string
}{
	{config.ProviderOpenAI, "OpenAI"},
	{config.ProviderAzureOpenAI, "Azure OpenAI"},
}

var themeLabels = []string{config.ThemeAuto, config.ThemeLight, config.ThemeDark}

// settingsForm holds the widgets of the settings dialog. It edits a copy
// of the configuration and never saves by itself.
type settingsForm struct {
	base *config.Config

	provider        *widget.Select
	openAIKey       *widget.Entry
	model           *widget.Entry
	azureEndpoint   *widget.Entry
	azureKey        *widget.Entry
	azureVersion    *widget.Entry
	azureDeployment *widget.Entry
	target          *widget.Entry
	alternative     *widget.Entry
	hotkey          *widget.Entry
	theme           *widget.Select
	autoStart       *widget.Check
	minimizeToTray  *widget.Check
	prompt          *widget.Entry
	validateStatus  *widget.Label
}

func newSettingsForm(cfg *config.Config) *settingsForm {
	f := &settingsForm{base: cfg.Clone()}

	labels := make([]string, 0, len(providerLabels))
	for _, p := range providerLabels {
		labels = append(labels, p.label)
	}
	f.provider = widget.NewSelect(labels, func(string) { f.updateProviderFields() })

	f.openAIKey = widget.NewPasswordEntry()
	f.model = widget.NewEntry()
	f.azureEndpoint = widget.NewEntry()
	f.azureEndpoint.SetPlaceHolder("https://<resource>.openai.azure.com")
	f.azureKey = widget.NewPasswordEntry()
	f.azureVersion = widget.NewEntry()
	f.azureDeployment = widget.NewEntry()
	f.target = widget.NewEntry()
	f.alternative = widget.NewEntry()
	f.hotkey = widget.NewEntry()
	f.hotkey.SetPlaceHolder(config.DefaultHotkey)
	f.hotkey.Validator = func(s string) error {
		_, err := hotkey.Parse(s)
		return err
	}
	f.theme = widget.NewSelect(themeLabels, nil)
	f.autoStart = widget.NewCheck("Start on login", nil)
	f.minimizeToTray = widget.NewCheck("Keep running in the tray when closed", nil)
	f.prompt = widget.NewMultiLineEntry()
	f.prompt.Wrapping = fyne.TextWrapWord
	f.prompt.SetMinRowsVisible(6)
	f.validateStatus = widget.NewLabel("")

	f.load(cfg)
	return f
}

func (f *settingsForm) load(cfg *config.Config) {
	f.provider.SetSelected(providerLabel(cfg.APIProvider))
	f.openAIKey.SetText(cfg.OpenAIAPIKey)
	f.model.SetText(cfg.Model)
	f.azureEndpoint.SetText(cfg.AzureEndpoint)
	f.azureKey.SetText(cfg.AzureAPIKey)
	f.azureVersion.SetText(cfg.AzureAPIVersion)
	f.azureDeployment.SetText(cfg.AzureDeploymentName)
	f.target.SetText(cfg.TargetLanguage)
	f.alternative.SetText(cfg.AlternativeTargetLanguage)
	f.hotkey.SetText(cfg.Hotkey)
	f.theme.SetSelected(strings.ToLower(cfg.Theme))
	f.autoStart.SetChecked(cfg.AutoStart)
	f.minimizeToTray.SetChecked(cfg.MinimizeToTray)
	f.prompt.SetText(cfg.CustomPrompt)
	f.updateProviderFields()
}

// read returns the configuration as edited in the form.
func (f *settingsForm) read() *config.Config {
	cfg := f.base.Clone()
	cfg.APIProvider = f.selectedProvider()
	cfg.OpenAIAPIKey = strings.TrimSpace(f.openAIKey.Text)
	cfg.Model = strings.TrimSpace(f.model.Text)
	cfg.AzureEndpoint = strings.TrimSpace(f.azureEndpoint.Text)
	cfg.AzureAPIKey = strings.TrimSpace(f.azureKey.Text)
	cfg.AzureAPIVersion = strings.TrimSpace(f.azureVersion.Text)
	cfg.AzureDeploymentName = strings.TrimSpace(f.azureDeployment.Text)
	cfg.TargetLanguage = strings.TrimSpace(f.target.Text)
	cfg.AlternativeTargetLanguage = strings.TrimSpace(f.alternative.Text)
	cfg.Hotkey = strings.TrimSpace(f.hotkey.Text)
	cfg.Theme = f.theme.Selected
	cfg.AutoStart = f.autoStart.Checked
	cfg.MinimizeToTray = f.minimizeToTray.Checked
	cfg.CustomPrompt = f.prompt.Text
	return cfg
}

// validateRequest describes the credentials currently typed into the form.
func (f *settingsForm) validateRequest() translation.ValidateRequest {
	cfg := f.read()
	req := translation.ValidateRequest{Provider: cfg.APIProvider, APIKey: cfg.ActiveAPIKey()}
	if cfg.APIProvider == config.ProviderAzureOpenAI {
		req.Endpoint = cfg.AzureEndpoint
		req.APIVersion = cfg.AzureAPIVersion
	}
	return req
}

func (f *settingsForm) selectedProvider() config.ProviderKind {
	for _, p := range providerLabels {
		if p.label == f.provider.Selected {
			return p.kind
		}
	}
	return config.ProviderOpenAI
}

func providerLabel(kind config.ProviderKind) string {
	for _, p := range providerLabels {
		if p.kind == kind {
			return p.label
		}
	}
	return providerLabels[0].label
}

func (f *settingsForm) updateProviderFields() {
	azure := f.selectedProvider() == config.ProviderAzureOpenAI
	for _, e := range []*widget.Entry{f.azureEndpoint, f.azureKey, f.azureVersion, f.azureDeployment} {
		if azure {
			e.Enable()
		} else {
			e.Disable()
		}
	}
	if azure {
		f.openAIKey.Disable()
		f.model.Disable()
	} else {
		f.openAIKey.Enable()
		f.model.Enable()
	}
}

func (f *settingsForm) items(validate func()) []*widget.FormItem {
	validateBtn := widget.NewButtonWithIcon("Test API key", theme.ConfirmIcon(), validate)

	return []*widget.FormItem{
		widget.NewFormItem("Provider", f.provider),
		widget.NewFormItem("OpenAI API key", f.openAIKey),
		widget.NewFormItem("Model", f.model),
		widget.NewFormItem("Azure endpoint", f.azureEndpoint),
		widget.NewFormItem("Azure API key", f.azureKey),
		widget.NewFormItem("Azure API version", f.azureVersion),
		widget.NewFormItem("Azure deployment", f.azureDeployment),
		widget.NewFormItem("", container.NewHBox(validateBtn, f.validateStatus)),
		widget.NewFormItem("Target language", f.target),
		widget.NewFormItem("Alternative language", f.alternative),
		widget.NewFormItem("Hotkey", f.hotkey),
		widget.NewFormItem("Theme", f.theme),
		widget.NewFormItem("", f.autoStart),
		widget.NewFormItem("", f.minimizeToTray),
		widget.NewFormItem("Prompt", f.prompt),
	}
}

// onShowSettings opens the settings dialog
func (a *Application) onShowSettings() {
	form := newSettingsForm(a.proc.Config())

	validate := func() {
		req := form.validateRequest()
		form.validateStatus.SetText("Checking...")
		a.runInBackground(func() func() {
			ctx, cancel := context.WithTimeout(a.ctx, validateTimeout)
			defer cancel()

			ok, err := a.proc.ValidateAPIKey(ctx, req)
			return func() {
				form.validateStatus.SetText(validationMessage(ok, err))
			}
		})
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", form.items(validate), func(save bool) {
		if !save {
			return
		}
		cfg := form.read()
		a.runInBackground(func() func() {
			err := a.proc.SaveConfig(cfg)
			return func() {
				if err != nil {
					a.showError(err)
					return
				}
				a.updateStatus("Settings saved")
			}
		})
	}, a.window)
	d.Resize(fyne.NewSize(640, 720))
	d.Show()
}

func validationMessage(ok bool, err error) string {
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("API key validation failed")
		return fmt.Sprintf("Error: %v", err)
	case ok:
		return "Key is valid"
	default:
		return "Key was rejected"
	}
}
