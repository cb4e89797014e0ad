// Package services implements the driving ports and the pipeline stages
// they orchestrate: embedding fallback, retrieval, prompt assembly,
// emergency gating and agent routing.
//
// Services depend only on driven ports and have no external dependencies.
package services
