package rig

import "github.com/joomcode/errorx"

// Role is a stable semantic name of a joint that the viewer drives directly.
type Role string

// Joint roles.
const (
	Neck  Role = "neck"
	Waist Role = "waist"
)

// Skeleton is the node hierarchy of a loaded model.
type Skeleton struct {
	Joints []*Joint
	byName map[string]*Joint
}

// NewSkeleton indexes joints by name. Unnamed joints are not indexed and
// duplicate names keep the first joint.
func NewSkeleton(joints []*Joint) *Skeleton {
	s := &Skeleton{
		Joints: joints,
		byName: make(map[string]*Joint, len(joints)),
	}
	for _, j := range joints {
		if j.Name == "" {
			continue
		}
		if _, ok := s.byName[j.Name]; !ok {
			s.byName[j.Name] = j
		}
	}
	return s
}

// Joint returns the joint called name, or nil.
func (s *Skeleton) Joint(name string) *Joint {
	return s.byName[name]
}

// Resolve looks up the joint bound to each role.
// Roles whose bone is missing are reported in the returned error
// and left out of the result.
func (s *Skeleton) Resolve(bones map[Role]string) (map[Role]*Joint, error) {
	joints := make(map[Role]*Joint, len(bones))
	var missing []string

	for role, name := range bones {
		j := s.Joint(name)
		if j == nil {
			missing = append(missing, string(role)+"="+name)
			continue
		}
		joints[role] = j
	}

	if len(missing) > 0 {
		return joints, errorx.DataUnavailable.New("skeleton has no bones for roles %v", missing)
	}

	return joints, nil
}

// ResetPose moves every joint back to its rest transform.
func (s *Skeleton) ResetPose() {
	for _, j := range s.Joints {
		j.ResetPose()
	}
}
