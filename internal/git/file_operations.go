package git

func (repo *GitRepo) StageFiles(files []string) error {
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"add", "--"}, files...)
	_, err := repo.run("add files", args...)
	return err
}
