package cpu

// Checksum accumulates the MC5000 checksum: the two's complement negation
// of the byte sum, truncated to 8 bits. Only the 6 bits of Sum() are ever
// transmitted or compared.
type Checksum uint8

// Reset clears the accumulator.
func (cs *Checksum) Reset() {
	*cs = 0
}

// Add accumulates bytes.
func (cs *Checksum) Add(data ...byte) {
	for _, b := range data {
		*cs -= Checksum(b)
	}
}

// Sum returns the checksum byte for everything accumulated so far.
func (cs Checksum) Sum() byte {
	return byte(cs) >> 2
}

// ChecksumOf computes the checksum byte of data.
func ChecksumOf(data []byte) byte {
	var cs Checksum
	cs.Add(data...)
	return cs.Sum()
}
