// Package focus provides a line-oriented client for devices speaking the Focus
// serial protocol. The host writes newline-terminated commands; the device
// answers with zero or more text lines followed by a single "." line.
//
// Key Features:
//   - Serial transport with fixed framing (9600 8N1 by default) and read/write timeouts
//   - Lazy reconnect: Send reopens a closed port before writing
//   - Newline framing: every command leaves the host terminated by exactly one '\n'
//   - Sentinel-terminated response reading through the Response iterator
//   - Optional non UTF-8 wire encodings (windows-1251, cp866, ...)
//
// Example Usage:
//
//	transport := focus.NewTransport(focus.Config{
//	    Device: "/dev/ttyACM0",
//	    Logger: func(msg string) { log.Println(msg) }, // logger
//	})
//	if err := transport.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer transport.Disconnect()
//
//	if err := transport.Send("help"); err != nil {
//	    log.Fatal(err)
//	}
//
//	resp := focus.NewResponse(transport)
//	for resp.Next() {
//	    fmt.Println(resp.Line())
//	}
//	if resp.NoOutput() {
//	    fmt.Println("no output")
//	}
//
// An empty read (a read timeout with no data or a closed stream) ends a
// response the same way as the sentinel does; Response reports it through
// NoOutput.
package focus
