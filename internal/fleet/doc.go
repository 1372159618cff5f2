// Package fleet holds the query functions behind the fleet dashboard: filtering the
// vehicle list, sorting it by column, and ranking vehicles by distance from a point.
//
// Every function here is pure. Inputs are never modified and nothing is kept between
// calls, so the functions may be called from any number of goroutines.
package fleet
