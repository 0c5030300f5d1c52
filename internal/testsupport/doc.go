// Package testsupport holds helpers shared by package tests: temp-dir
// configs and an opened catalog store with seeding shortcuts.
package testsupport
