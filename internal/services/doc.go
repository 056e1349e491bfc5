// Package services defines the shared error taxonomy and context carriers
// used by pipeline stages and the workflow coordinator.
package services
