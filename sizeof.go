package charpool

// These constants are verified via unit tests.
const (
	// sizeOfCacheLine is the size of a CPU cache line.
	// 64 bytes is standard for x86-64.
	// 128 bytes is standard for Apple Silicon (M1/M2/M3) and other ARM64.
	// We use 128 to satisfy the largest common alignment requirement.
	sizeOfCacheLine = 128

	// sizeOfPointer is the number of bytes a freed run must be able to hold
	// so its first bytes can store the link to the next freed run. It bounds
	// the smallest permitted smallMax.
	sizeOfPointer = 8
)
