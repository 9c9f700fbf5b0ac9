// Package server serves survey sessions over HTTP: server-rendered wizard
// pages for participants and a JSON API described by an embedded OpenAPI
// document. Sessions live in memory only.
package server
