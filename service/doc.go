// Package service coordinates the task log and its in-memory projection.
package service
