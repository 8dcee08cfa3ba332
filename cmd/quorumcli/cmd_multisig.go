package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"strings"

	quorumd "github.com/iov-one/quorum/cmd/quorumd/app"
	"github.com/iov-one/quorum/x/multisig"
)

func cmdCreateMultisig(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that registers a new multisig. The order of owners is
kept and must not contain duplicates.
		`)
		fl.PrintDefaults()
	}
	var (
		ownersFl    = flAddresses(fl, "owners", "Comma separated list of owner addresses.")
		thresholdFl = fl.Uint("threshold", 0, "Number of approvals required to execute a proposal. Must be greater than 0.")
		nonceFl     = fl.Uint("nonce", 0, "Authority nonce of the multisig, used to derive its authority address.")
	)
	fl.Parse(args)

	if len(*ownersFl) == 0 {
		flagDie("at least one owner is required")
	}
	if *thresholdFl == 0 {
		flagDie("threshold cannot be zero")
	}

	tx := quorumd.Tx{
		Msg: &multisig.CreateMsg{
			Owners:         *ownersFl,
			Threshold:      uint32(*thresholdFl),
			AuthorityNonce: uint32(*nonceFl),
		},
	}
	_, err := writeTx(output, &tx)
	return err
}

func cmdSetOwners(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that replaces the owners and the threshold of a multisig.
Only the multisig itself is authorized to do so, therefore this transaction
must be turned into a proposal using the as-proposal command.

All proposals pending at the time of the change become stale.
		`)
		fl.PrintDefaults()
	}
	var (
		multisigFl  = flSeq(fl, "multisig", "", "ID of the multisig to reconfigure.")
		ownersFl    = flAddresses(fl, "owners", "Comma separated list of the new owner addresses.")
		thresholdFl = fl.Uint("threshold", 0, "New number of required approvals. Must be greater than 0.")
	)
	fl.Parse(args)

	if len(*multisigFl) == 0 {
		flagDie("multisig ID is required")
	}
	if len(*ownersFl) == 0 {
		flagDie("at least one owner is required")
	}
	if *thresholdFl == 0 {
		flagDie("threshold cannot be zero")
	}

	tx := quorumd.Tx{
		Msg: &multisig.SetOwnersMsg{
			MultisigID: *multisigFl,
			Owners:     *ownersFl,
			Threshold:  uint32(*thresholdFl),
		},
	}
	_, err := writeTx(output, &tx)
	return err
}

func cmdAsProposal(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read a transaction from the input and wrap its message into a multisig
proposal. The message is executed with the authority of the multisig once
enough owners approved the proposal. Signatures of the input transaction are
dropped.
		`)
		fl.PrintDefaults()
	}
	var (
		multisigFl = flSeq(fl, "multisig", "", "ID of the multisig that should execute the message.")
		proposerFl = flAddress(fl, "proposer", "", "Owner creating the proposal. Defaults to the main signer.")
	)
	fl.Parse(args)

	if len(*multisigFl) == 0 {
		flagDie("multisig ID is required")
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read input transaction: %s", err)
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return fmt.Errorf("cannot extract transaction message: %s", err)
	}
	ins, err := quorumd.NewInstruction(msg)
	if err != nil {
		return fmt.Errorf("cannot create instruction: %s", err)
	}

	proposal := quorumd.Tx{
		Msg: &multisig.ProposeMsg{
			MultisigID:  *multisigFl,
			Proposer:    *proposerFl,
			Instruction: ins,
		},
	}
	_, err = writeTx(output, &proposal)
	return err
}

func cmdApprove(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that approves a multisig proposal. The transaction must
be signed by the approving owner.
		`)
		fl.PrintDefaults()
	}
	var (
		proposalFl = fl.String("proposal", "", `Proposal ID, either "<multisig>/<proposal>" or hex encoded.`)
		ownerFl    = flAddress(fl, "owner", "", "Approving owner. Defaults to the main signer.")
	)
	fl.Parse(args)

	id, err := unpackProposalID(*proposalFl)
	if err != nil {
		flagDie("invalid proposal: %s", err)
	}

	tx := quorumd.Tx{
		Msg: &multisig.ApproveMsg{
			ProposalID: id,
			Owner:      *ownerFl,
		},
	}
	_, err = writeTx(output, &tx)
	return err
}

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that executes an approved multisig proposal. Anyone can
execute a proposal, so the transaction does not need a signature.
		`)
		fl.PrintDefaults()
	}
	var (
		proposalFl = fl.String("proposal", "", `Proposal ID, either "<multisig>/<proposal>" or hex encoded.`)
	)
	fl.Parse(args)

	id, err := unpackProposalID(*proposalFl)
	if err != nil {
		flagDie("invalid proposal: %s", err)
	}

	tx := quorumd.Tx{
		Msg: &multisig.ExecuteMsg{ProposalID: id},
	}
	_, err = writeTx(output, &tx)
	return err
}

func cmdExecuteAll(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read proposal IDs from the input, one per line, and execute each of them.
Already executed proposals are skipped. For every proposal a line with the
outcome is written to the output:

  executed  the instruction was run
  skipped   the proposal was executed before
  stale     the owners changed since the proposal was created
  pending   more approvals are required, try again later
  failed    any other failure, for example a failing instruction
		`)
		fl.PrintDefaults()
	}
	newNode := nodeFlags(fl)
	fl.Parse(args)

	n := newNode()
	var failed int
	lines := bufio.NewScanner(input)
	for lines.Scan() {
		line := strings.TrimSpace(lines.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, err := unpackProposalID(line)
		if err != nil {
			fmt.Fprintf(output, "%s\tfailed\t%s\n", line, err)
			failed++
			continue
		}
		outcome, err := executeProposal(n, id)
		if err != nil {
			failed++
			fmt.Fprintf(output, "%s\t%s\t%s\n", formatProposalID(id), outcome, err)
			continue
		}
		fmt.Fprintf(output, "%s\t%s\n", formatProposalID(id), outcome)
	}
	if err := lines.Err(); err != nil {
		return fmt.Errorf("cannot read input: %s", err)
	}
	if failed != 0 {
		return fmt.Errorf("%d proposals failed", failed)
	}
	return nil
}

// executeProposal executes a single proposal and returns the outcome. An
// error is returned only for outcomes that need attention.
func executeProposal(n node, id []byte) (string, error) {
	raw, err := n.Query("/proposals", id)
	if err != nil {
		return "failed", err
	}
	var p multisig.Proposal
	if err := p.Unmarshal(raw); err != nil {
		return "failed", err
	}
	if p.Executed {
		return "skipped", nil
	}

	tx := quorumd.Tx{Msg: &multisig.ExecuteMsg{ProposalID: id}}
	_, err = n.Commit(&tx)
	switch {
	case err == nil:
		return "executed", nil
	case multisig.ErrAlreadyExecuted.Is(err):
		// Executed by someone else in the meantime.
		return "skipped", nil
	case multisig.ErrStaleProposal.Is(err):
		return "stale", nil
	case multisig.IsRetryable(err):
		return "pending", nil
	default:
		return "failed", err
	}
}
