// Package connectors holds clients for the catalogues records are
// ingested from. Each subpackage implements driven.CatalogueClient.
package connectors
