package main

import (
	"flag"
	"fmt"
	"io"

	quorumd "github.com/iov-one/quorum/cmd/quorumd/app"
	"github.com/iov-one/quorum/x/upgrade"
)

func cmdRegisterProgram(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that registers a new upgradeable program.
		`)
		fl.PrintDefaults()
	}
	var (
		nameFl      = fl.String("name", "", "Unique name of the program.")
		authorityFl = flAddress(fl, "authority", "", "Address allowed to upgrade the program. Defaults to the main signer.")
		codeHashFl  = flHex(fl, "code", "", "Hex encoded sha256 hash of the program code.")
	)
	fl.Parse(args)

	if *nameFl == "" {
		flagDie("program name is required")
	}

	tx := quorumd.Tx{
		Msg: &upgrade.RegisterMsg{
			Name:      *nameFl,
			Authority: *authorityFl,
			CodeHash:  *codeHashFl,
		},
	}
	_, err := writeTx(output, &tx)
	return err
}

func cmdSetUpgradeAuthority(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that hands a program over to a new upgrade authority. The
transaction must be authorized by the current authority.

To hand a program over to a multisig, use the authority address printed by the
show-multisig command.
		`)
		fl.PrintDefaults()
	}
	var (
		nameFl      = fl.String("name", "", "Name of the program.")
		authorityFl = flAddress(fl, "authority", "", "Address of the new upgrade authority.")
	)
	fl.Parse(args)

	if *nameFl == "" {
		flagDie("program name is required")
	}
	if len(*authorityFl) == 0 {
		flagDie("authority is required")
	}

	tx := quorumd.Tx{
		Msg: &upgrade.SetAuthorityMsg{
			Name:         *nameFl,
			NewAuthority: *authorityFl,
		},
	}
	_, err := writeTx(output, &tx)
	return err
}

func cmdUpgradeProgram(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that replaces the code of a program. The transaction must
be authorized by the program authority.
		`)
		fl.PrintDefaults()
	}
	var (
		nameFl     = fl.String("name", "", "Name of the program.")
		codeHashFl = flHex(fl, "code", "", "Hex encoded sha256 hash of the new program code.")
	)
	fl.Parse(args)

	if *nameFl == "" {
		flagDie("program name is required")
	}

	tx := quorumd.Tx{
		Msg: &upgrade.UpgradeMsg{
			Name:     *nameFl,
			CodeHash: *codeHashFl,
		},
	}
	_, err := writeTx(output, &tx)
	return err
}
