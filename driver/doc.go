// Package driver defines the execution-time collaborator the frame
// graph core drives during execute: group markers for debug tooling
// and a flush hook, nothing else. Everything about recording actual
// draw/dispatch commands is the pass callback's business, not the
// core's or the driver's.
package driver
