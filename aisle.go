// Package aisle defines the domain types and service interfaces for
// discovering and aggregating retail product catalogs. Implementations live
// in subpackages named after the technology they bind to (sqlite, resty,
// viper), and the discovery engine itself lives in the discover subpackage.
package aisle
