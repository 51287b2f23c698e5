// Package elfnote reads pre-computed OmniBOR identifiers out of an already
// built ELF object's ".note.omnibor" section, the way a dependency that was
// itself produced by an OmniBOR-aware toolchain carries its own gitoids.
//
// Grounded in the same "open one well-known section, parse a small binary
// structure out of it" approach the teacher's own binary-edges strategy
// uses for DT_NEEDED entries, but reading ELF notes instead of the dynamic
// section.
package elfnote

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"strings"
)

const sectionName = ".note.omnibor"

// noteOwner is the owner string the OmniBOR ELF-note convention stamps on
// its notes.
const noteOwner = "OmniBOR"

// ReadNoteOmnibor opens path as an ELF object and extracts any SHA-1/SHA-256
// gitoid URIs recorded in its ".note.omnibor" section. A missing section, a
// file that isn't ELF at all, or a malformed note all count as "no
// information available" — empty strings, no error — matching the note
// sidecar's own posture that an absent note is never a hard failure.
func ReadNoteOmnibor(path string) (sha1Hex, sha256Hex string, err error) {
	f, openErr := elf.Open(path)
	if openErr != nil {
		return "", "", nil
	}
	defer f.Close()

	section := f.Section(sectionName)
	if section == nil {
		return "", "", nil
	}

	data, readErr := section.Data()
	if readErr != nil {
		return "", "", nil
	}

	for _, uri := range parseNotes(data, f.ByteOrder) {
		switch {
		case strings.HasPrefix(uri, "gitoid:blob:sha1:"):
			sha1Hex = strings.TrimPrefix(uri, "gitoid:blob:sha1:")
		case strings.HasPrefix(uri, "gitoid:blob:sha256:"):
			sha256Hex = strings.TrimPrefix(uri, "gitoid:blob:sha256:")
		}
	}
	return sha1Hex, sha256Hex, nil
}

// parseNotes walks a sequence of ELF notes (namesz, descsz, type, name
// padded to 4 bytes, desc padded to 4 bytes) and returns the descriptor text
// of every note whose owner name is noteOwner. Malformed trailing data is
// silently dropped rather than treated as an error.
func parseNotes(data []byte, order binary.ByteOrder) []string {
	var uris []string
	for len(data) >= 12 {
		namesz := uint64(order.Uint32(data[0:4]))
		descsz := uint64(order.Uint32(data[4:8]))
		// note type at data[8:12] is not needed to identify an OmniBOR note.
		data = data[12:]

		// All arithmetic below stays in uint64 specifically so a crafted
		// namesz/descsz near the uint32 max cannot wrap align4 back to a
		// small value and slip past the bounds check that follows it.
		nameLen := align4(namesz)
		if uint64(len(data)) < namesz || uint64(len(data)) < nameLen {
			return uris
		}
		name := string(bytes.TrimRight(data[:namesz], "\x00"))
		data = data[nameLen:]

		descLen := align4(descsz)
		if uint64(len(data)) < descsz || uint64(len(data)) < descLen {
			return uris
		}
		desc := data[:descsz]
		data = data[descLen:]

		if name == noteOwner {
			uris = append(uris, string(desc))
		}
	}
	return uris
}

func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}
