// Package constants holds default configuration values shared by the
// compiler, runtime, and facade packages.
package constants

import "time"

// Counter clamp bounds (spec §4.4, §4.2).
const (
	// MaxCounterValue is the saturation ceiling for CTU/CTUD CV.
	MaxCounterValue = 32767

	// MinCounterValue is the saturation floor for CTD/CTUD CV.
	MinCounterValue = -32768
)

// Default scan/tick configuration.
const (
	// DefaultScanIntervalMs is the default periodic tick interval used by
	// the runtime manager facade when the caller does not specify one.
	DefaultScanIntervalMs = 100

	// DefaultTagAliasCount is the number of input_N/output_N aliases the
	// manager facade seeds on load (input_0..input_6, output_0..output_6).
	DefaultTagAliasCount = 7
)

// ShutdownDrainTimeout bounds how long Manager.Stop waits for an
// in-flight scan to finish before returning.
const ShutdownDrainTimeout = 1 * time.Second

// Physical address prefix/segment characters used by the tag-id mapping
// in spec §3 ("%I0.0" -> "__addr_I0_0").
const (
	AddressPrefix   = '%'
	AddressSep      = '.'
	AddressTagIDTag = "__addr_"
)
