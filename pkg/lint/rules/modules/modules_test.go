package modules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/fortlint/internal/testutil"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules/modules"
)

func TestProcedureNotInModule(t *testing.T) {
	src := `
integer function double(x)
  integer, intent(in) :: x
  double = 2 * x
end function

subroutine triple(x)
  integer, intent(inout) :: x
  x = 3 * x
end subroutine
`
	got := testutil.Findings(testutil.CheckRule(t, nil, modules.ProcedureNotInModule, src))
	assert.Equal(t, []testutil.Finding{
		{Line: 2, Column: 1, Message: "function not contained within (sub)module or program"},
		{Line: 7, Column: 1, Message: "subroutine not contained within (sub)module or program"},
	}, got)
}

func TestProcedureInModule(t *testing.T) {
	src := `
module my_module
    implicit none
contains
    integer function double(x)
      integer, intent(in) :: x
      double = 2 * x
    end function

    subroutine triple(x)
      integer, intent(inout) :: x
      x = 3 * x
    end subroutine
end module
`
	assert.Empty(t, testutil.CheckRule(t, nil, modules.ProcedureNotInModule, src))
}

func TestProcedureInProgramAndInterface(t *testing.T) {
	src := `
program p
    implicit none
    interface
        subroutine ext(x)
            integer, intent(in) :: x
        end subroutine
    end interface
    call ext(1)
contains
    subroutine inner()
    end subroutine
end program
`
	assert.Empty(t, testutil.CheckRule(t, nil, modules.ProcedureNotInModule, src))
}
