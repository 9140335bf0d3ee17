// Package fuzztests houses Go fuzz harnesses for the front of the checker:
// declaration decoding and module analysis. They guard against panics and
// hangs on arbitrary declaration files.
package fuzztests
