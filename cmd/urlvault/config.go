package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/urlvault"
)

// Run executes the config show command.
func (c *ConfigShowCmd) Run(deps *Dependencies) error {
	settings, err := deps.Settings.Load(deps.Ctx)
	if err != nil {
		return fail(deps.Stderr, err)
	}

	fields, err := settingsFields(settings)
	if err != nil {
		return err
	}
	if keys, ok := fields["apiKeys"].(map[string]any); ok {
		delete(fields, "apiKeys")
		for provider, key := range keys {
			fields["apiKeys."+provider] = MaskKey(fmt.Sprint(key))
		}
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(deps.Stdout, "%s = %v\n", name, fields[name])
	}
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	settings, err := deps.Settings.Load(deps.Ctx)
	if err != nil {
		return fail(deps.Stderr, err)
	}

	if err := SetSetting(settings, c.Key, c.Value); err != nil {
		return fail(deps.Stderr, err)
	}

	if err := deps.Settings.Save(deps.Ctx, settings); err != nil {
		return fail(deps.Stderr, err)
	}

	fmt.Fprintf(deps.Stdout, "Set %s.\n", c.Key)
	return nil
}

// Run executes the config reset command. The stored API key fallbacks are
// kept.
func (c *ConfigResetCmd) Run(deps *Dependencies) error {
	current, err := deps.Settings.Load(deps.Ctx)
	if err != nil {
		return fail(deps.Stderr, err)
	}

	settings := urlvault.DefaultSettings()
	settings.APIKeys = current.APIKeys

	if err := deps.Settings.Save(deps.Ctx, settings); err != nil {
		return fail(deps.Stderr, err)
	}

	fmt.Fprintln(deps.Stdout, "Settings reset to defaults.")
	return nil
}

// SetSetting parses value according to the type of the setting named key
// (its JSON name) and assigns it. A blank model resets to the provider's
// default model, and switching provider replaces a model of the other
// provider with the new provider's default.
// Returns EINVALID for unknown keys, unparsable values, and settings that
// fail validation; s is left unchanged on error.
func SetSetting(s *urlvault.Settings, key, value string) error {
	if strings.HasPrefix(key, "apiKey") {
		return urlvault.Errorf(urlvault.EINVALID, "use 'urlvault key set' to store the API key")
	}

	fields, err := settingsFields(s)
	if err != nil {
		return err
	}

	current, ok := fields[key]
	if !ok {
		return urlvault.Errorf(urlvault.EINVALID, "unknown setting %q", key)
	}

	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return urlvault.Errorf(urlvault.EINVALID, "%s must be true or false", key)
		}
		fields[key] = b
	case json.Number:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return urlvault.Errorf(urlvault.EINVALID, "%s must be a number", key)
		}
		fields[key] = n
	default:
		if key == "model" && strings.TrimSpace(value) == "" {
			value = urlvault.DefaultModelFor(s.Provider)
		}
		fields[key] = value
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	updated := *s
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	if key == "provider" {
		updated.SetProvider(updated.Provider)
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	*s = updated
	return nil
}

// settingsFields returns the settings keyed by their JSON names.
func settingsFields(s *urlvault.Settings) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return fields, nil
}
