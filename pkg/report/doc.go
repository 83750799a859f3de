// Package report computes label frequencies over an exported card database
// and renders them as console tables and a tab separated frequency list.
package report
