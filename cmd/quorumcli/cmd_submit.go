package main

import (
	"flag"
	"fmt"
	"io"

	quorumd "github.com/iov-one/quorum/cmd/quorumd/app"
	"github.com/iov-one/quorum/x/multisig"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it. This
command returns once the transaction is part of a block.

For certain transactions response is written out. A created multisig is
printed as its ID, a created proposal as "<multisig>/<proposal>".

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	newNode := nodeFlags(fl)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	res, err := newNode().Commit(tx)
	if err != nil {
		return fmt.Errorf("cannot submit transaction: %+v", err)
	}

	resp, err := extractResponse(tx, res.Data, formatters)
	if err != nil {
		return fmt.Errorf("cannot extract response: %s", err)
	}
	if resp != "" {
		fmt.Fprintln(output, resp)
	}
	return nil
}

// extractResponse parse given raw response data bytes according to what is
// expected considering the submitted transaction. It returns a human readable
// representation of given response. It can return no data (and no error) if
// response does not contain anything worth showing to the user.
func extractResponse(tx *quorumd.Tx, respData []byte, fmts map[string]func([]byte) (string, error)) (string, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return "", fmt.Errorf("cannot extract message from transaction: %s", err)
	}
	format, ok := fmts[msg.Path()]
	if !ok {
		// If no formatter is registered, we do not print the result.
		return "", nil
	}
	pretty, err := format(respData)
	if err != nil {
		return "", fmt.Errorf("cannot format result data %x: %s", respData, err)
	}
	return pretty, nil
}

// formatters contains a mapping of a message path to response parser. Response
// parse function accepts a raw bytes of serialized response and must return a
// human representation of that data.
//
// Do not register a message if you want response returned after its submission
// to be ignored (not printed to the user).
var formatters = map[string]func([]byte) (string, error){
	multisig.CreateMsg{}.Path():  fmtSequence,
	multisig.ProposeMsg{}.Path(): fmtProposalID,
}

func fmtSequence(raw []byte) (string, error) {
	n, err := fromSequence(raw)
	if err != nil {
		return "", fmt.Errorf("cannot parse sequence: %s", err)
	}
	return fmt.Sprint(n), nil
}

func fmtProposalID(raw []byte) (string, error) {
	if _, err := multisig.SplitProposalID(raw); err != nil {
		return "", err
	}
	return formatProposalID(raw), nil
}
