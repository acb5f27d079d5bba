// Package domain models citizen-reported disaster events.
//
// # Data Sources
//
// Events arrive on two paths. Citizens submit them through the web form,
// which POSTs a validated submission to the HTTP API; those events are
// persisted in the relational store. Remote/online reports arrive as flat
// JSON on a Kafka topic published by field gateways; those are persisted in
// the realtime store with the online flag forced on.
//
// # Conventions
//
// Event types are a closed set: flood, earthquake, fire, landslide, storm,
// other. Submitted severity is an integer 1-5. Predicted severity is a
// float written later by the external severity model; it is absent until
// the first prediction lands.
//
// Creation timestamps are rendered once, at intake, as an India-locale
// string (Asia/Kolkata) and never rewritten. Downstream consumers treat the
// field as opaque text.
package domain
