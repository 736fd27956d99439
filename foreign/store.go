package foreign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/codec/dagjson"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/linking"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"

	"github.com/nasdf/forma/core"
	"github.com/nasdf/forma/storage"
)

// HeadKey is the storage key holding the link and checksum of the most
// recently exported archive.
const HeadKey = "head"

var linkPrototype = cidlink.LinkPrototype{Prefix: cid.Prefix{
	Version:  1,
	Codec:    0x0129, // dag-json -- See the multicodecs table: https://github.com/multiformats/multicodec/
	MhType:   0x13,   // sha2-512
	MhLength: 64,
}}

func linkSystem(store storage.Storage) linking.LinkSystem {
	lsys := cidlink.DefaultLinkSystem()
	lsys.SetReadStorage(store)
	lsys.SetWriteStorage(store)
	return lsys
}

// Node converts an archive into an IPLD data model node.
func Node(archive *Archive) (datamodel.Node, error) {
	data, err := json.Marshal(archive)
	if err != nil {
		return nil, err
	}
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagjson.Decode(nb, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return nb.Build(), nil
}

// Export archives the memory into the given storage. The archive is written
// content-addressed as a dag-json node, and the head key is updated with its
// link and checksum.
func Export(ctx context.Context, memory *core.Memory, store storage.Storage) (datamodel.Link, error) {
	archive := NewArchive(memory)
	node, err := Node(archive)
	if err != nil {
		return nil, err
	}

	var encoded bytes.Buffer
	if err := dagjson.Encode(node, &encoded); err != nil {
		return nil, err
	}

	lsys := linkSystem(store)
	lnk, err := lsys.Store(linking.LinkContext{Ctx: ctx}, linkPrototype, node)
	if err != nil {
		return nil, err
	}

	head := lnk.String() + " " + Sum(encoded.Bytes()).String()
	if err := store.Put(ctx, HeadKey, []byte(head)); err != nil {
		return nil, err
	}
	return lnk, nil
}

// Import reconstructs a memory from the head archive of the given storage.
// The archive checksum is verified before the memory is rebuilt.
func Import(ctx context.Context, store storage.Storage, metamodel *core.Metamodel) (*core.Memory, error) {
	head, err := store.Get(ctx, HeadKey)
	if err != nil {
		return nil, err
	}
	link, checksum, ok := strings.Cut(string(head), " ")
	if !ok {
		return nil, fmt.Errorf("malformed head %q", head)
	}
	id, err := cid.Decode(link)
	if err != nil {
		return nil, err
	}
	expected, err := ParseHash(checksum)
	if err != nil {
		return nil, err
	}

	lsys := linkSystem(store)
	node, err := lsys.Load(linking.LinkContext{Ctx: ctx}, cidlink.Link{Cid: id}, basicnode.Prototype.Any)
	if err != nil {
		return nil, err
	}

	var encoded bytes.Buffer
	if err := dagjson.Encode(node, &encoded); err != nil {
		return nil, err
	}
	if !Sum(encoded.Bytes()).Equal(expected) {
		return nil, fmt.Errorf("archive checksum mismatch")
	}

	var archive Archive
	if err := json.Unmarshal(encoded.Bytes(), &archive); err != nil {
		return nil, err
	}
	return archive.Restore(metamodel)
}
