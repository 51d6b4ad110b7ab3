// Package wire implements the line protocol spoken between a cooperative
// puzzle client and the relay server.
//
// Every message is one newline-terminated line of space separated tokens.
// Inbound lines are split into at most four fields and the last field keeps
// every remaining separator verbatim, so multi-coordinate payloads such as
// "SPANGRAM 0,0 0,1 0,2" survive decoding intact.
//
// Free text (room names, passwords, clues, editors, whole board documents)
// is carried as base64 of its UTF-8 bytes. The literal NONE stands for an
// absent display name.
//
// Decoding is soft: an unknown first token yields ErrUnknownTag and the
// caller is expected to log and drop the line.
package wire
