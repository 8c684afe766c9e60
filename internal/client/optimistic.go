package client

import "errors"

var errSaveFailed = errors.New("save failed, changes reverted")

// attempt applies a mutation optimistically, issues the confirming request,
// and restores the pre-mutation snapshot when the request fails or the
// server envelope reports success=false. The same helper serves every
// sub-resource instead of repeating the snapshot/revert block per entity.
func attempt[S any](state *S, clone func(S) S, mutate func(*S), request func() (*envelope, error)) error {
	snapshot := clone(*state)
	mutate(state)

	env, err := request()
	if err != nil {
		*state = snapshot
		return err
	}
	if !env.Success {
		*state = snapshot
		if env.Message != "" {
			return errors.New(env.Message)
		}
		return errSaveFailed
	}
	return nil
}
