// Package testutil holds helpers shared by package tests: loggers, item
// state builders and deterministic ID generators.
package testutil
