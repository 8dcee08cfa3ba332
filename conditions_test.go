package quorum_test

import (
	"encoding/json"
	"flag"
	"fmt"
	"reflect"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexademical address printing", t, func() {
		addr := quorum.NewAddress([]byte("owner"))

		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", []byte(addr)))
		So(quorum.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("test condition printing", t, func() {
		cond := quorum.NewCondition("multisig", "authority", []byte{0, 1, 0xAB})

		So(cond.String(), ShouldEqual, "multisig/authority/0001AB")
		So(quorum.Condition("garbage").String(), ShouldStartWith, "Invalid Condition")
	})
}

func TestParseAddress(t *testing.T) {
	owner := quorum.NewAddress([]byte("owner"))
	bech, err := owner.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		enc      string
		wantErr  *errors.Error
		wantAddr quorum.Address
	}{
		"default decoding": {
			enc:      owner.String(),
			wantAddr: owner,
		},
		"hex decoding": {
			enc:      "hex:" + owner.String(),
			wantAddr: owner,
		},
		"bech32 decoding": {
			enc:      "bech32:" + bech,
			wantAddr: owner,
		},
		"cond decoding": {
			enc:      "cond:multisig/authority/0001",
			wantAddr: quorum.NewCondition("multisig", "authority", []byte{0, 1}).Address(),
		},
		"invalid condition format": {
			enc:     "cond:multisig/0001",
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			enc:     "cond:multisig/authority/zzzz",
			wantErr: errors.ErrInput,
		},
		"short address": {
			enc:     "0102",
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			enc:     "foobar:xxx",
			wantErr: errors.ErrType,
		},
		"zero address": {
			enc:      "",
			wantAddr: nil,
		},
		"zero hex address": {
			enc:      "hex:",
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := quorum.ParseAddress(tc.enc)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(got, tc.wantAddr) {
				t.Fatalf("got address: %q", got)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	owner := quorum.NewAddress([]byte("owner"))

	raw, err := json.Marshal(owner)
	require.NoError(t, err)
	assert.Equal(t, `"`+owner.String()+`"`, string(raw))

	var got quorum.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, owner, got)

	if err := json.Unmarshal([]byte(`"foobar:xxx"`), &got); !errors.ErrType.Is(err) {
		t.Fatalf("want type error, got %+v", err)
	}
}

func TestAddressFlag(t *testing.T) {
	owner := quorum.NewAddress([]byte("owner"))

	var addr quorum.Address
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.Var(&addr, "owner", "")
	require.NoError(t, fl.Parse([]string{"-owner", owner.String()}))
	assert.Equal(t, owner, addr)
}

func TestAuthorityCondition(t *testing.T) {
	Convey("conditions are bound to their content", t, func() {
		a := quorum.NewCondition("multisig", "authority", []byte{1})
		b := quorum.NewCondition("multisig", "authority", []byte{2})

		So(a.Validate(), ShouldBeNil)
		So(a.Equals(b), ShouldBeFalse)
		So(a.Address().Equals(b.Address()), ShouldBeFalse)
		So(a.Address().Equals(a.Address()), ShouldBeTrue)
		So(a.Address().Validate(), ShouldBeNil)
	})
}
