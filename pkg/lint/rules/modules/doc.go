// Package modules provides lint rules about where procedures are defined.
//
// Rules in this package:
//   - M001: function or subroutine defined outside a module or program
package modules
