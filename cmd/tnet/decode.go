package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/tnetkit/tnet/internal/capture"
	"github.com/tnetkit/tnet/internal/errors"
	"github.com/tnetkit/tnet/pkg/protocol"
)

func decodeCmd() *cobra.Command {
	var (
		toClient    bool
		captureFile string
		dump        bool
	)

	cmd := &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decode frames and print the messages",
		Long: `Decode frames given as hex strings, or every frame in a capture file.

Each argument may hold several frames back to back. Frames are
decoded as sent to the server unless --to-client is given.

Examples:
  tnet decode 0600160a0005 --to-client
  tnet decode --capture captures/capture-20260101T000000.tnc
  tnet decode 0600160a0005 --dump`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if captureFile != "" {
				return runDecodeCapture(out, captureFile, dump)
			}
			if len(args) == 0 {
				return errors.New("T400").WithDetail("No frames given")
			}
			dir := protocol.ToServer
			if toClient {
				dir = protocol.ToClient
			}
			return runDecodeHex(out, args, dir, dump)
		},
	}

	cmd.Flags().BoolVarP(&toClient, "to-client", "c", false, "Decode as server-to-client frames")
	cmd.Flags().StringVar(&captureFile, "capture", "", "Decode every frame in a capture file")
	cmd.Flags().BoolVarP(&dump, "dump", "d", false, "Dump the full message structure")

	return cmd
}

func runDecodeHex(out io.Writer, args []string, dir protocol.Direction, dump bool) error {
	for _, arg := range args {
		buf, err := hex.DecodeString(strings.ReplaceAll(arg, " ", ""))
		if err != nil {
			return errors.New("T400").Wrap(err).WithDetailf("Argument %q", arg)
		}
		for len(buf) > 0 {
			pkt, n, err := protocol.Decode(buf, dir)
			if err != nil {
				return errors.New("T401").Wrap(err)
			}
			printPacket(out, dir, pkt, n, dump)
			buf = buf[n:]
		}
	}
	return nil
}

func runDecodeCapture(out io.Writer, path string, dump bool) error {
	r, err := capture.Open(path)
	if err != nil {
		return errors.New("T300").Wrap(err)
	}
	defer r.Close()

	for {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.New("T300").Wrap(err)
		}

		fmt.Fprintf(out, "%s conn=%d ", rec.Time.Format("15:04:05.000"), rec.Conn)
		if rec.Dropped {
			fmt.Fprint(out, "[dropped] ")
		}
		if rec.Rewritten {
			fmt.Fprint(out, "[rewritten] ")
		}

		pkt, n, err := protocol.Decode(rec.Frame, rec.Direction)
		if err != nil {
			fmt.Fprintf(out, "%s %s (%d bytes): %v\n", rec.Direction, hex.EncodeToString(rec.Frame), len(rec.Frame), err)
			continue
		}
		printPacket(out, rec.Direction, pkt, n, dump)
	}
}

func printPacket(out io.Writer, dir protocol.Direction, pkt protocol.Packet, size int, dump bool) {
	name := protocol.DefaultRegistry().Name(pkt.Header.ID, pkt.Header.Module)
	fmt.Fprintf(out, "%s %s (id %d, %d bytes) %s\n", dir, name, pkt.Header.ID, size, describe(pkt.Message))
	if dump {
		fmt.Fprint(out, spew.Sdump(pkt.Message))
	}
}

func describe(m protocol.Message) string {
	if raw, ok := m.(*protocol.Raw); ok {
		return hex.EncodeToString(raw.Body())
	}
	return strings.TrimPrefix(spew.Sprintf("%v", m), "<*>")
}
