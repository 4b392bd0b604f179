// Package deps locates the external binaries playervalue shells out to.
package deps
