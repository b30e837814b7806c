// Package apiresponses provides standardized JSON error envelopes so every
// endpoint reports failures in the same shape.
package apiresponses
