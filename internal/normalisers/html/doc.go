// Package html extracts readable text from HTML files attached to records.
// Scripts, styles and the document head are dropped and entities decoded.
package html
