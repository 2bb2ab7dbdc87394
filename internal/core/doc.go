// Package core implements the lifecycle controller for one on-disk database
// instance directory. It mediates every action against the instance
// (initialization, start/stop/status, the interactive client session, and
// removal) through the resolved engine personality, shelling out to the
// engine's own administrative utilities and guaranteeing teardown of
// anything it started on every exit path.
package core
