// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

// Decision is what to do with the replica counterpart of an entry.
// If RemoveConflict is true, the replica entry has the wrong kind and is removed before Action.
type Decision struct {
	Action         Action
	RemoveConflict bool
}

// DecidePush returns the decision for an entry of kind source during the push phase,
// given the kind of entry at the same relative path in the replica.
// When both are files and equality is EqualityUnknown, the action is ActionCompare.
func DecidePush(source Kind, replica Kind, equality Equality) Decision {
	switch source {
	case KindDirectory:
		switch replica {
		case KindDirectory:
			return Decision{Action: ActionNone}
		case KindNone:
			return Decision{Action: ActionCreateDirectory}
		}
		return Decision{Action: ActionCreateDirectory, RemoveConflict: true}
	case KindFile:
		switch replica {
		case KindNone:
			return Decision{Action: ActionCopyFile}
		case KindFile:
			switch equality {
			case EqualityEqual:
				return Decision{Action: ActionNone}
			case EqualityDifferent:
				return Decision{Action: ActionUpdateFile}
			}
			return Decision{Action: ActionCompare}
		}
		return Decision{Action: ActionCopyFile, RemoveConflict: true}
	}
	// other kinds are not mirrored
	return Decision{Action: ActionNone}
}

// DecidePrune returns the decision for an entry of kind replica during the prune phase,
// given the kind of entry at the same relative path in the source.
func DecidePrune(replica Kind, source Kind) Decision {
	switch replica {
	case KindNone:
		return Decision{Action: ActionNone}
	case KindDirectory:
		if source == KindDirectory {
			return Decision{Action: ActionNone}
		}
		return Decision{Action: ActionRemoveDirectory}
	}
	if source == KindFile {
		return Decision{Action: ActionNone}
	}
	return Decision{Action: ActionRemoveFile}
}
