// Package style provides lint rules about source layout and naming.
//
// Rules in this package:
//   - S001: line longer than the configured maximum
//   - S061: END statement without the unit name (preview)
//   - S101: trailing whitespace
package style
