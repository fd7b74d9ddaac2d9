// Package config loads vendcheck configuration.
//
// Configuration comes from an optional YAML file layered over DefaultConfig.
// Command-line flags are applied by the caller after Load and before
// Validate. A minimal file:
//
//	input_dir: testCases
//	output_dir: outputFiles
//	workers: 8
//	deduction_policy: clamp
//	telemetry:
//	  logging:
//	    level: debug
//	  metrics:
//	    listen_address: ":9090"
//
// Keys not listed here are rejected so typos surface as errors.
package config
