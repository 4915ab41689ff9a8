package neuron

import "errors"

// ErrInvalidParameter indicates a parameter value violates a physical or
// ordering invariant (R<=0, tau_m<=0, refractory<0, u_reset>threshold).
var ErrInvalidParameter = errors.New("neuron: invalid parameter")
