// Package prospect defines the domain types shared by the ingestion,
// enrichment and campaign stages.
package prospect

import "time"

// Company is a single registry entity tracked by the pipeline.
//
// OrgNr is the registry identifier and never changes once assigned.
// Website and Email are empty until discovered; the store maps empty
// strings to NULL so a fresher fetch can never erase a known value.
type Company struct {
	OrgNr        string
	Name         string
	Municipality string
	NACE         string
	Website      string
	Email        string
	Source       string
	LastSeen     time.Time
}

// SourceRegistry tags companies first seen via the public registry.
const SourceRegistry = "brreg"
