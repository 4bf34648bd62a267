package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopello/urisign/pkg/qrcode"
)

var errInvalidJSON = errors.New("payload is not valid JSON")

func newSignCmd(opts *rootOptions) *cobra.Command {
	var (
		uri     string
		payload string
		qrPath  string
		qrSize  int
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Append a signed payload to a URI",
		Example: "  signuri sign --secret 123456789 --uri https://example.com/ --payload '[1111,2222]'\n" +
			"  signuri sign --uri https://go.example.com/r --payload '{\"url\":\"https://store.example/p/1\"}' --qr link.png",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !json.Valid([]byte(payload)) {
				return fmt.Errorf("%w: %s", errInvalidJSON, payload)
			}

			signed, err := opts.signer.Sign(uri, json.RawMessage(payload))
			if err != nil {
				return err
			}

			if qrPath != "" {
				if err := qrcode.WriteFile(qrPath, signed, qrSize); err != nil {
					return err
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}

	cmd.Flags().StringVar(&uri, "uri", "", "URI to sign")
	cmd.Flags().StringVar(&payload, "payload", "", "JSON payload to embed")
	cmd.Flags().StringVar(&qrPath, "qr", "", "also write the signed URI as a PNG QR code to this file")
	cmd.Flags().IntVar(&qrSize, "qr-size", qrcode.DefaultSize, "QR code size in pixels")
	cobra.CheckErr(cmd.MarkFlagRequired("uri"))
	cobra.CheckErr(cmd.MarkFlagRequired("payload"))

	return cmd
}
