// Package typing provides lint rules about implicit typing.
//
// Rules in this package:
//   - T001: module, submodule or program without 'implicit none'
//   - T002: interface procedure without 'implicit none'
//   - T003: 'implicit none' repeated in a contained procedure
package typing
