// Package qrcomm implements the epoch-based random-linear-network-coding
// transport: peers exchange fixed-size coded frames (rendered on the
// wire as QR-code payloads) and each receiver solves a sparse linear
// system to recover every participant's fragments.
package qrcomm

const (
	// MaxParticipants is the number of peer "slots" an Epoch tracks.
	MaxParticipants = 8

	// FragmentSizeBytes is the payload size of one Fragment.
	FragmentSizeBytes = 32

	// FragmentsPerParticipantPerEpoch is the per-peer window size.
	FragmentsPerParticipantPerEpoch = 32

	// FragmentsPerEpoch is the dense WideFactor length.
	FragmentsPerEpoch = MaxParticipants * FragmentsPerParticipantPerEpoch

	// CodingFactorsPerFrame is the total number of GF elements carried
	// as factors in one wire Frame.
	CodingFactorsPerFrame = 512

	// APLengthIndexSizeBytes is the little-endian length prefix on a
	// Package.
	APLengthIndexSizeBytes = 4
)
