package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// failure is printed in place of a result when a command fails
type failure struct {
	Failed bool   `json:"failed" yaml:"failed"`
	Msg    string `json:"msg" yaml:"msg"`
}

// validateOutput checks the requested result format
func validateOutput(format string) error {
	switch format {
	case outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutput, format)
	}
}

// writeOutput renders v in the requested format. Unknown formats fall back to json.
func writeOutput(w io.Writer, format string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if format != outputYAML {
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	// remote resources only carry json tags, so yaml is rendered from the json document
	var doc interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return err
	}

	return enc.Close()
}

func writeFailure(w io.Writer, format string, err error) error {
	return writeOutput(w, format, failure{Failed: true, Msg: err.Error()})
}
