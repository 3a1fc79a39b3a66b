// Package domain contains the catalog's core entities (users, items, lots,
// dependencies, daily price samples), pagination value types and the error
// taxonomy every other layer wraps. It depends on nothing inside the module.
package domain
