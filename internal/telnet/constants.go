package telnet

// RFC 854 command bytes. Only the negotiation verbs and IAC are acted on by
// the decoder; every other byte following IAC is reported as an unknown
// two-byte command.
const (
	SE   = 240 + iota // f0
	NOP               // f1
	DM                // f2
	BRK               // f3
	IP                // f4
	AO                // f5
	AYT               // f6
	EC                // f7
	EL                // f8
	GA                // f9
	SB                // fa
	WILL              // fb
	WONT              // fc
	DO                // fd
	DONT              // fe
	IAC               // ff
)

const (
	ECHO = 1 // RFC 857
)
