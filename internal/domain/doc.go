// Package domain models field telemetry and the shared types of the
// agro-climate agent.
//
// # Data Source
//
// Readings originate from temperature/humidity sensors installed on
// smallholder plots around El Guineo (Aguazul, Casanare, Colombia). A field
// gateway publishes each observation as flat JSON to the ingest topic; the
// ingest pipeline parses it into a [Reading] and persists it in the local
// telemetry store.
//
// # Conventions
//
// Timestamps are RFC 3339 and normalized to UTC. Temperature is in °C and
// humidity in relative percent; both are nullable because field sensors
// drop individual channels under low battery. Plausible bounds are
// -10..50 °C and 0..100 %; values outside those bounds are kept but flagged
// by the analysis engine as data-quality issues.
//
// Sensor coordinates are WGS-84. A reading without its own coordinates
// falls back to the registered sensor position when distance filters are
// applied.
package domain
