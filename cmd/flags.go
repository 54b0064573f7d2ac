package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// bindFlags binds the running command's flags to config keys. Binding at run
// time lets several commands share a key without overwriting each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// Output formats shared by listing commands.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var outputFormats = []string{FormatTable, FormatJSON, FormatYAML}

// addOutputFlag registers -f/--format on cmd, validated on parse.
func addOutputFlag(cmd *cobra.Command, target *string, fallback string) {
	cmd.Flags().StringVarP(target, "format", "f", fallback, "Output format ("+strings.Join(outputFormats, "|")+")")
	AddFlagValidation(cmd, "format", func(format string) error {
		return ValidateChoice("format", format, outputFormats)
	})
}

// AddFlagValidation wraps a flag's value so bad input fails at parse time.
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateChoice rejects values outside choices, suggesting the closest one
// by prefix when there is one.
func ValidateChoice(name, value string, choices []string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	for _, c := range choices {
		if value != "" && strings.HasPrefix(c, value) {
			return fmt.Errorf("invalid %s %q, did you mean %q?", name, value, c)
		}
	}
	return fmt.Errorf("invalid %s %q, must be one of: %s", name, value, strings.Join(choices, ", "))
}

// parseProps turns repeated key=value flags into a props map. Values that
// parse as JSON keep their JSON type; anything else is a string.
func parseProps(pairs []string) (map[string]interface{}, error) {
	props := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid prop %q, expected key=value", pair)
		}

		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			props[key] = decoded
		} else {
			props[key] = value
		}
	}
	return props, nil
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == "" || name == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(raw), nil
	}

	raw, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(raw), nil
}

// readJSONObject reads a JSON object from path.
func readJSONObject(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%s must contain a JSON object", path)
	}
	return out, nil
}
