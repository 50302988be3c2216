// Package cpu implements the instruction set and assembler for the MC5000
// microcontroller.
//
// The MC5000 is a small four register machine (acc, dat, and the p0/p1
// simple I/O pins, plus the x0/x1 XBus ports). Programs are assembled in a
// single pass into a flat byte-code. Jumps never carry addresses: every
// label definition is emitted as a two byte marker holding the label's
// small integer ID, and a jump names that same ID. The MCU scans the loaded
// program for the matching marker at run time.
package cpu
