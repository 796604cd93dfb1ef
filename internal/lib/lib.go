// Packages lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains the client for the downstream todo lookup.
package lib
