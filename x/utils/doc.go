// Package utils holds the decorators every application stack is built of:
// panic recovery, logging and savepoints.
package utils
