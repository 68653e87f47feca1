package protocol

import "errors"

var (
	ErrBadCRC            = errors.New("protocol: bad crc")
	ErrShortFrame        = errors.New("protocol: short frame")
	ErrUnknownSubCommand = errors.New("protocol: unknown sub-command")
	ErrUnknownResponse   = errors.New("protocol: unknown response type")
	ErrProtocolInvariant = errors.New("protocol: invariant violated")
)
