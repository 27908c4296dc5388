package llm

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ruizTechServices/new-main-1/internal/cli"
	"github.com/ruizTechServices/new-main-1/internal/config"
	"go.uber.org/zap"
)

// Bootstrap builds the registry from configuration. Every registered factory
// gets one attempt; providers whose configuration fails validation or whose
// factory errors are recorded as unavailable instead of aborting startup.
func Bootstrap(providers map[string]config.ProviderConfig, log *zap.Logger) *Registry {
	registry := NewRegistry()
	validate := validator.New()
	ready := 0

	for _, name := range Registered() {
		pCfg := providers[string(name)]

		if err := validate.Struct(&pCfg); err != nil {
			reason := configReason(err)
			registry.Disable(name, reason, pCfg.Models)
			log.Warn(fmt.Sprintf("%s %s %s",
				cli.WarningSign(),
				cli.Stylize(fmt.Sprintf("%s\t", name), cli.Black),
				cli.Stylize("Skipping provider: "+reason, cli.Yellow),
			))
			continue
		}

		factoryFunc, err := Get(name)
		if err != nil {
			log.Error("Unknown provider type", zap.String("type", string(name)))
			continue
		}

		providerInstance, err := factoryFunc(pCfg)
		if err != nil {
			registry.Disable(name, err.Error(), pCfg.Models)
			log.Error(fmt.Sprintf("%s %s %s",
				cli.CrossMark(),
				cli.Stylize(fmt.Sprintf("%s\t", name), cli.Black),
				cli.Stylize("Failed to initialize provider", cli.Red),
			), zap.Error(err))
			continue
		}

		registry.Add(providerInstance, pCfg.Models)
		log.Info(fmt.Sprintf("%s %s %s",
			cli.CheckMark(),
			cli.Stylize(fmt.Sprintf("%s\t", name), cli.Black),
			cli.Stylize(fmt.Sprintf("%d models", len(pCfg.Models)), cli.Green),
		))
		ready++
	}

	if ready == 0 {
		log.Warn("No providers were registered. API will not function correctly.")
	}

	return registry
}

func configReason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	switch fe := verrs[0]; fe.Field() {
	case "APIKey":
		return "missing API key"
	case "BaseURL":
		return "invalid base_url"
	default:
		return fmt.Sprintf("invalid %s", fe.Field())
	}
}
