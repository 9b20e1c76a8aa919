// Command tcplistener accepts raw TCP connections and prints each request
// head it parses, along with how the payload guard would treat its body.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/spf13/pflag"

	"github.com/nhdewitt/qr-from-tcp/internal/dispatch"
	"github.com/nhdewitt/qr-from-tcp/internal/log"
	"github.com/nhdewitt/qr-from-tcp/internal/payload"
	"github.com/nhdewitt/qr-from-tcp/internal/request"
)

func main() {
	addr := pflag.String("addr", "127.0.0.1:42069", "address to listen on")
	pflag.Parse()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("error listening: %v", err)
	}
	defer listener.Close()

	fmt.Println("Listening for TCP traffic on", listener.Addr())
	for {
		c, err := listener.Accept()
		if err != nil {
			log.Fatalf("error accepting connection: %v", err)
		}
		log.Infof("Connection accepted: %s", c.RemoteAddr())
		inspect(c)
		fmt.Println("Connection to", c.RemoteAddr(), "closed")
	}
}

func inspect(c net.Conn) {
	defer c.Close()

	br := bufio.NewReaderSize(c, request.MaxLineSize)
	for {
		req, err := request.RequestFromReader(br)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Errorf("error parsing request: %v", err)
			}
			return
		}

		fmt.Println("Request line:")
		fmt.Printf("- Method: %s\n", req.RequestLine.Method)
		fmt.Printf("- Target: %s\n", req.RequestLine.RequestTarget)
		fmt.Printf("- Version: %s\n", req.RequestLine.HttpVersion)
		fmt.Printf("- Route: %v\n", dispatch.Classify(req.RequestLine.Method, req.Path))
		fmt.Println("Headers:")
		for _, k := range req.Headers.Keys() {
			fmt.Printf("- %s: %s\n", k, req.Headers.Get(k))
		}

		if req.ContentLength < 0 {
			fmt.Println("Body: length not declared")
		} else {
			fmt.Printf("Body: %d bytes declared\n", req.ContentLength)
		}
		if d := payload.Default.Check(req.ContentLength); !d.Accept {
			fmt.Println("- Rejected:", d.Reason)
			return
		}
		body, err := payload.Default.Read(req.Body)
		if err != nil {
			fmt.Println("- Rejected:", err)
			return
		}
		fmt.Printf("- Read %d bytes\n", len(body))
		if !req.KeepAlive() {
			return
		}
	}
}
