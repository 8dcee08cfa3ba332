package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The signature is bound to the chain ID and the next sequence of the signer,
both fetched from the node.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use QUORUM_PRIV_KEY environment variable to set it.")
	)
	newNode := nodeFlags(fl)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}

	n := newNode()
	chainID, err := n.ChainID()
	if err != nil {
		return fmt.Errorf("cannot fetch chain ID: %s", err)
	}
	seq, err := nextSequence(n, key.PublicKey().Address())
	if err != nil {
		return fmt.Errorf("cannot get the next sequence number: %s", err)
	}
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}

// nextSequence returns the sequence value that the next signature of
// given address must use.
func nextSequence(n node, addr quorum.Address) (int64, error) {
	raw, err := n.Query("/auth", addr)
	switch {
	case errors.ErrNotFound.Is(err):
		// Never signed anything.
		return 0, nil
	case err != nil:
		return 0, err
	}
	var user sigs.UserData
	if err := user.Unmarshal(raw); err != nil {
		return 0, fmt.Errorf("cannot decode account: %s", err)
	}
	return user.Sequence, nil
}
