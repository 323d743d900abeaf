package protocol

// This package implements serialising and parsing of the framed binary
// protocol memwatch uses to inspect and mutate the memory of a remote
// process.
//
// The protocol is strictly request/response over a single byte stream. There
// are no request IDs, so only one request may be in flight on a stream at a
// time. Serialising calls is the caller's job.
//
// - `Command` - A client instruction, identified by a single byte.
// - `Frame`   - START, command id, command payload, END.
// - `Watch`   - An address the peer keeps an eye on, with a declared width
//               and type.
//
// === General Syntax
//
// - every request frame starts with 0xFF and ends with 0xFE
// - all multi-byte integers are big endian
// - addresses are 4 bytes
// - widths are 1 byte and must be 1, 2 or 4
// - sign tags are 1 byte: 0x01 signed, 0x02 unsigned, 0x03 float
//
// The width of a value always comes from its declared type. Writing 2 as a
// u32 sends 4 value bytes.
//
// === READ (0x01)
//
//  ```
//    > FF 01 <address:4> <width:1> FE
//    < <value:width>
//  ```
//
// The reply is NOT framed. The client just reads `width` bytes.
//
// === WRITE (0x02)
//
//  ```
//    > FF 02 <address:4> <width:1> <value:width> FE
//  ```
//
// No reply.
//
// === WATCH (0x03)
//
//  ```
//    > FF 03 <address:4> <width:1> <sign_tag:1> FE
//  ```
//
// No reply. Width 4 accepts all three tags, widths 1 and 2 only signed and
// unsigned.
//
// === VIEW_WATCHES (0x04)
//
//  ```
//    > FF 04 00 00 00 00 FE
//    < FF 04 <count:4> (<address:4> <width:1> <sign_tag:1> <value:width>)* FE
//  ```
//
// The four zero bytes in the request are reserved. Entries are returned in the
// peer's order. A framing byte that doesn't match is reported as an
// InvalidReturnByteError, an entry width other than 1, 2 or 4 as an
// InvalidByteSizeError. Either way the stream is left mid-frame and must not
// be reused.
//
// An entry whose sign tag doesn't fit its width (e.g. float at width 1) is
// kept and typed as the unsigned type of that width.
//
// === UNWATCH (0x05)
//
//  ```
//    > FF 05 <address:4> FE
//  ```
//
// No reply.
//
