package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/dmitrijs2005/journalkeeper/internal/services"
)

// ListSettings prints every known setting with its effective value.
func (a *App) ListSettings(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	values, err := a.settings.AllAsMapWithDefaults(ctx, a.auth)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("%-28s = %-10v %s\n", k, values[k], services.SettingsConfig[k].Description)
	}
	return nil
}

// SetSetting updates one setting. The raw input is parsed according to the
// setting's declared kind.
func (a *App) SetSetting(ctx context.Context) error {
	if !a.requireLogin() {
		return nil
	}

	key, err := getSimpleText(a.reader, "Setting key", os.Stdout)
	if err != nil {
		return err
	}
	cfg, ok := services.SettingsConfig[key]
	if !ok {
		fmt.Println("Unknown setting:", key)
		return nil
	}

	raw, err := getSimpleText(a.reader, fmt.Sprintf("Value (%s)", cfg.Kind), os.Stdout)
	if err != nil {
		return err
	}

	var value any
	switch cfg.Kind {
	case services.KindBool:
		value, err = strconv.ParseBool(raw)
	case services.KindFloat64:
		value, err = strconv.ParseFloat(raw, 64)
	default:
		value = raw
	}
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if _, err := a.settings.Update(ctx, a.auth, key, value, nowFn()); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	fmt.Println("Saved.")
	return nil
}
