package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/quorum"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *quorum.Address {
	var a quorum.Address
	if defaultVal != "" {
		var err error
		a, err = quorum.ParseAddress(defaultVal)
		if err != nil {
			flagDie("Cannot parse %q address flag value. %s", name, err)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// flAddresses returns a list of addresses that is filled by a comma
// separated command line argument.
func flAddresses(fl *flag.FlagSet, name, usage string) *addressList {
	var l addressList
	fl.Var(&l, name, usage)
	return &l
}

type addressList []quorum.Address

func (l addressList) String() string {
	chunks := make([]string, len(l))
	for i, a := range l {
		chunks[i] = a.String()
	}
	return strings.Join(chunks, ",")
}

func (l *addressList) Set(raw string) error {
	for _, chunk := range strings.Split(raw, ",") {
		if chunk = strings.TrimSpace(chunk); chunk == "" {
			continue
		}
		a, err := quorum.ParseAddress(chunk)
		if err != nil {
			return err
		}
		*l = append(*l, a)
	}
	return nil
}

// flHex returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flHex(fl *flag.FlagSet, name, defaultVal, usage string) *flagbyte {
	var b flagbyte
	if defaultVal != "" {
		if err := b.Set(defaultVal); err != nil {
			flagDie("Cannot parse %q hex encoded flag value. %s", name, err)
		}
	}
	fl.Var(&b, name, usage)
	return &b
}

type flagbyte []byte

func (b flagbyte) String() string {
	return hex.EncodeToString(b)
}

func (b *flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}

// flSeq returns a sequence value as encoded by the orm package. The flag
// accepts all formats supported by unpackSequence.
func flSeq(fl *flag.FlagSet, name, defaultVal, usage string) *flagseq {
	var s flagseq
	if defaultVal != "" {
		if err := s.Set(defaultVal); err != nil {
			flagDie("Cannot parse %q sequence flag value. %s", name, err)
		}
	}
	fl.Var(&s, name, usage)
	return &s
}

type flagseq []byte

func (s flagseq) String() string {
	if len(s) == 0 {
		return ""
	}
	n, err := fromSequence(s)
	if err != nil {
		return hex.EncodeToString(s)
	}
	return fmt.Sprint(n)
}

func (s *flagseq) Set(raw string) error {
	val, err := unpackSequence(raw)
	if err != nil {
		return err
	}
	*s = val
	return nil
}

// flagDie terminates the program when a flag cannot be used. This follows
// the behaviour of the flag package for invalid values.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}

// env reads the default value of a flag from the environment. A variable
// set to an empty string still wins over fallback.
func env(name, fallback string) string {
	v, ok := os.LookupEnv(name)
	if !ok {
		v = fallback
	}
	return v
}
