// Package config loads the healthops daemon configuration.
//
// Configuration is YAML. Before decoding, the raw document is expanded with
// ExpandEnvStrict so secrets and endpoints can come from the environment:
//
//	service:
//	  name: risk-sentinel
//	http:
//	  addr: ${HEALTHOPS_ADDR}
//
// A `${VAR}` whose variable is unset is an error rather than an empty
// string. `$$` produces a literal `$`.
//
// Load applies defaults after decoding and validates the result. Unknown
// keys are rejected.
package config
