// Package api hosts the gin HTTP server and the controller registration
// contract shared by all route-providing packages.
package api
