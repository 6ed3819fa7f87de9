// Package affiliate builds retailer search URLs carrying affiliate
// identifiers for each recommended part.
package affiliate
