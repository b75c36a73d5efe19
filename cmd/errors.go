package cmd

import "errors"

var (
	// ErrUnknownOutput is returned when the output format is neither json nor yaml
	ErrUnknownOutput = errors.New("output must be one of json, yaml")

	// ErrDataplaneURLRequired is returned when a config push is requested without a Data Plane API url
	ErrDataplaneURLRequired = errors.New("dataplane url is required to push or check a config")
)
